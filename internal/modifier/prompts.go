package modifier

// needsPromptTemplate drives the report-analysis call. The section tokens
// carry the four report sections; the vocabulary tokens carry the closed
// disability and impairment name lists.
const needsPromptTemplate = `You are an expert special education support assistant. Your task is to analyze a psychoeducational student report excerpt and identify key learning challenges, instructional needs, and recommend lesson modifications for a general education teacher.

Here is the report excerpt you will be analyzing:

<report_excerpt>
    --- INTERVIEWS ---
    {{INTERVIEWS}}

    --- OBSERVATIONS ---
    {{OBSERVATIONS}}

    --- CONCLUSION ---
    {{CONCLUSION}}

    --- ELIGIBILITY ---
    {{ELIGIBILITY}}
</report_excerpt>

Before we begin the analysis, let's review the definitions of specific learning disabilities and other health impairments:

<specific_learning_disability_definition>
    THESE DISABILITIES ARE NEUROLOGICAL IN ORIGIN AND IMPACT THE PROCESSES INVOLVED IN UNDERSTANDING OR USING SPOKEN OR WRITTEN LANGUAGE.
    These disabilities include:
{{SLD_NAMES}}
</specific_learning_disability_definition>

<other_health_impaired_definition>
    THIS INCLUDES STUDENTS WHOSE HEALTH CONDITIONS SIGNIFICANTLY IMPACT THEIR STRENGTH, ENERGY, OR ALERTNESS, THEREBY AFFECTING THEIR EDUCATIONAL PERFORMANCE. BELOW ARE THE KEY AREAS COVERED UNDER OHI.
{{OHI_NAMES}}
</other_health_impaired_definition>

Now, please analyze the report excerpt and identify the following:

1. Key learning challenges or instructional needs of the student (e.g., "phonological_processing", "spelling_difficulty").
2. Recommended lesson modifications (in plain English) that a general education teacher can implement.
3. Identify specific learning disabilities, matching EXACTLY to the disabilities in the provided definition:
    - List evidence from the report that supports each potential diagnosis.
    - If no evidence from the ELIGIBILITY section aligns with the disabilities, leave this blank.
4. Identify other health impairments, matching EXACTLY to the impairments in the provided definition:
    - List evidence from the report that supports each potential diagnosis.
    - If no evidence from the ELIGIBILITY section aligns with the impairments, leave this blank.

Finally, present your analysis in a JSON format with the following structure:
<output_format>
{
    "identified_disabilities_or_impairments": [
        {
            "type": "specific_learning_disability" or "other_health_impairment",
            "name": "name of the disability or impairment",
            "associated_needs": ["list of associated needs"],
            "recommended_modifications": ["list of recommended modifications"]
        }
    ]
}
</output_format>

Ensure that your response is only in the JSON format specified above, without any additional commentary. Each array should contain relevant items identified from the report excerpt. If no items are identified for a particular category, leave the array empty.`

// synthesisPromptTemplate drives the lesson-modification call. LESSON
// carries the original lesson text; STUDENT_DATA carries the per-student
// needs as a JSON block.
const synthesisPromptTemplate = `You are a special education specialist tasked with creating individualized modifications for a lesson plan to support diverse learners. Your goal is to analyze student data and provide specific, categorized modifications that address each student's unique needs while maintaining the core objectives of the lesson.

Follow these steps carefully:

1. First, review the original lesson plan:
<original_lesson_plan>
{{LESSON}}
</original_lesson_plan>

2. Here is the structured students data. Each entry contains the type of impairment, specific name, associated instructional needs, and recommended lesson modifications. Use this JSON structure directly:
<student_data_json>
{{STUDENT_DATA}}
</student_data_json>

3. Create modifications for the lesson plan based on the student's needs and recommended modifications. Focus on making the lesson more inclusive and accessible while maintaining its core objectives.

4. Your output should consist of a new section titled "Modifications for Diverse Learners"

5. In the "Modifications for Diverse Learners" section, organize your modifications into the following categories:
- Instruction
- Materials
- Assessment
- Participation
- Environment/Technology (if applicable)

6. Use bullet points and plain language for each modification.

7. Format your response as follows:

<output_format>
    Return only the content under the heading **Modifications for Diverse Learners**.
    Do not include any wrapping XML tags (like <response>), no brackets, and no placeholder phrases like "[Original lesson plan remains unchanged]".
    Your output should begin with "**Modifications for Diverse Learners**" and end with the last category.
    Nothing should come before or after this section.
    **Modifications for Diverse Learners**

    Instruction:
    - [Bullet point modification][type of disability or impairment]

    Materials:
    - [Bullet point modification][type of disability or impairment]

    Assessment:
    - [Bullet point modification][type of disability or impairment]

    Participation:
    - [Bullet point modification][type of disability or impairment]

    Environment/Technology (if applicable):
    - [Bullet point modification][type of disability or impairment]

</output_format>

Remember to tailor the modifications to address the specific needs of the student while ensuring they align with the lesson's objectives and standards.`
